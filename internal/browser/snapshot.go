package browser

// snapshotScript lists visible interactive elements with the attributes a
// Selenium locator can use. Headings are kept for orientation. Unlike an
// agent view the whole document is walked, not just the viewport.
const snapshotScript = `() => {
   const interactiveTags = new Set(['a', 'button', 'input', 'textarea', 'select', 'details', 'summary', 'form', 'label']);
   const locatorAttrs = ['id', 'name', 'type', 'placeholder', 'data-testid', 'data-test', 'aria-label', 'href', 'for'];

   function cleanText(text) {
      if (!text) return '';
      let res = text.replace(/\s+/g, ' ').trim();
      if (res.length > 80) {
         return res.slice(0, 80) + '...';
      }
      return res;
   }

   function isVisible(el) {
      if (!el || !el.getBoundingClientRect) return false;
      if (el.getAttribute('aria-hidden') === 'true') return false;

      const rect = el.getBoundingClientRect();
      const style = window.getComputedStyle(el);
      return rect.width > 0 && rect.height > 0 &&
         style.visibility !== 'hidden' &&
         style.display !== 'none' &&
         style.opacity !== '0';
   }

   function isInteractive(el) {
      const tag = el.tagName.toLowerCase();
      const role = (el.getAttribute('role') || '').toLowerCase();
      return interactiveTags.has(tag) ||
         ['button', 'link', 'checkbox', 'menuitem', 'tab', 'textbox', 'combobox', 'option'].includes(role);
   }

   function escapeAttr(value) {
      return value.replace(/"/g, '\\"');
   }

   function getKind(el) {
      const tag = el.tagName.toLowerCase();
      const role = (el.getAttribute('role') || '').toLowerCase();
      const type = (el.getAttribute('type') || '').toLowerCase();

      if (tag === 'button' || role === 'button' || type === 'submit') return 'button';
      if (tag === 'a' || role === 'link') return 'link';
      if (tag === 'select' || role === 'combobox') return 'select';
      if (tag === 'input') {
         if (type === 'checkbox') return 'checkbox';
         if (type === 'radio') return 'radio';
         if (type === 'password') return 'password';
         return 'input';
      }
      if (tag === 'textarea') return 'input';
      return '';
   }

   function describe(el, depth) {
      const tag = el.tagName.toLowerCase();
      const parts = ['<' + tag];

      let label = '';
      if (tag !== 'form') label = cleanText(el.innerText || el.textContent || '');
      if (!label) label = cleanText(el.getAttribute('aria-label') || '');
      if (!label) label = cleanText(el.getAttribute('title') || '');
      if (label) parts.push('label="' + escapeAttr(label) + '"');

      const kind = getKind(el);
      if (kind) parts.push('kind="' + kind + '"');

      for (const attr of locatorAttrs) {
         const v = el.getAttribute(attr);
         if (v && attr !== 'aria-label') parts.push(attr + '="' + escapeAttr(cleanText(v)) + '"');
      }
      const cls = cleanText(el.getAttribute('class') || '');
      if (cls) parts.push('class="' + escapeAttr(cls.split(' ').slice(0, 3).join(' ')) + '"');

      return '  '.repeat(depth) + parts.join(' ') + '>\n';
   }

   function traverse(node, depth) {
      if (!node || depth > 25) return '';
      if (node.nodeType !== Node.ELEMENT_NODE) return '';

      const el = node;
      const tag = el.tagName.toLowerCase();
      if (['script', 'style', 'svg', 'path', 'noscript', 'template'].includes(tag)) return '';
      if (!isVisible(el)) return '';

      let output = '';
      let childDepth = depth;
      if (isInteractive(el)) {
         output += describe(el, depth);
         childDepth = depth + 1;
      } else if (['h1', 'h2', 'h3'].includes(tag)) {
         output += '  '.repeat(depth) + '<' + tag + '> ' + cleanText(el.innerText) + '\n';
      }

      for (const child of el.children) {
         output += traverse(child, childDepth);
      }
      return output;
   }

   return traverse(document.body, 0);
}`
